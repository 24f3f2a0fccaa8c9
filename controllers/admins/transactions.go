package admins

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/database"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/models"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/utils"

	"github.com/shopspring/decimal"
)

// GET /api/admins/transactions
func ListTransactions(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}
	txType := strings.TrimSpace(r.URL.Query().Get("type"))
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	db := database.DB
	query := db.Model(&models.Transaction{})
	if txType != "" {
		query = query.Where("type = ?", txType)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		query = query.Where("reference LIKE ?", "%"+search+"%")
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))

	type transactionRow struct {
		ID        uint            `json:"id"`
		UserID    uint            `json:"user_id"`
		Username  string          `json:"username"`
		Amount    decimal.Decimal `json:"amount"`
		Type      string          `json:"type"`
		Category  string          `json:"category"`
		Activity  string          `json:"activity"`
		Reference string          `json:"reference"`
		CreatedAt time.Time       `json:"created_at"`
	}

	rows, err := query.
		Select("transactions.id, transactions.user_id, users.username, transactions.amount, transactions.type, transactions.category, transactions.activity, transactions.reference, transactions.created_at").
		Joins("JOIN users ON users.id = transactions.user_id").
		Order("transactions.id DESC").
		Limit(limit).Offset((page - 1) * limit).
		Rows()
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	defer rows.Close()

	items := make([]transactionRow, 0)
	for rows.Next() {
		var t transactionRow
		if scanErr := rows.Scan(&t.ID, &t.UserID, &t.Username, &t.Amount, &t.Type, &t.Category, &t.Activity, &t.Reference, &t.CreatedAt); scanErr == nil {
			items = append(items, t)
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": items,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": totalPages,
			},
		},
	})
}
