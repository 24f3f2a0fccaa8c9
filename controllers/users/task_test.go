package users

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/engine"
)

func TestWriteEngineErrorStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"campaign not found", engine.ErrCampaignNotFound, 404},
		{"task not found", engine.ErrTaskNotFound, 404},
		{"not joined", engine.ErrNotJoined, 400},
		{"already completed", engine.ErrAlreadyCompleted, 400},
		{"proof pending", engine.ErrProofPending, 400},
		{"proof required", engine.ErrProofRequired, 400},
		{"internal", errors.New("db gone"), 500},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeEngineError(rec, tc.err)
		if rec.Code != tc.want {
			t.Fatalf("%s: got status %d, want %d", tc.name, rec.Code, tc.want)
		}
	}
}
