package models

type Setting struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Company        string `json:"company"`
	Logo           string `json:"logo"`
	Maintenance    bool   `json:"maintenance"`
	ClosedRegister bool   `json:"closed_register"`
	LinkCS         string `json:"link_cs"`
	LinkGroup      string `json:"link_group"`
	LinkApp        string `json:"link_app"`
}

func (Setting) TableName() string {
	return "settings"
}
