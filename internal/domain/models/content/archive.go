package content

// ArchiveDay counts publications on one day of a month
type ArchiveDay struct {
	Day   int `json:"day"`
	Count int `json:"count"`
}

// ArchiveMonth counts publications in one month (1-12)
type ArchiveMonth struct {
	Month int          `json:"month"`
	Count int          `json:"count"`
	Days  []ArchiveDay `json:"days"`
}

// ArchiveYear counts publications in one calendar year
type ArchiveYear struct {
	Year   int            `json:"year"`
	Count  int            `json:"count"`
	Months []ArchiveMonth `json:"months"`
}
