package models

// Dashboard is one saved dashboard and the table its records come from.
type Dashboard struct {
	ID           string `json:"id" yaml:"id"`
	Slug         string `json:"slug" yaml:"slug"`
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	DataSource   string `json:"dataSource" yaml:"dataSource"`
	DisplayOrder int    `json:"displayOrder" yaml:"displayOrder"`
	IsActive     bool   `json:"isActive" yaml:"isActive"`
}

// CSATRow is the flat shape written by the importer.
type CSATRow struct {
	ID            string
	ResponseDate  string
	Rating        string
	Company       string
	TechFirstName string
	Comments      string
}
