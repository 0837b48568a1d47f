package services

// Scope identifies the acting user and the company whose data they may touch.
type Scope struct {
	CompanyID uint
	UserID    uint
}
