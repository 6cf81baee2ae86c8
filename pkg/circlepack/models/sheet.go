package models

// SheetData represents the raw rows read from a single sheet.
type SheetData struct {
	// Name is the sheet name, or the file name for CSV input.
	Name string `json:"name"`
	// Region is the detected data range (e.g., "A1:C20"), empty when the sheet is blank.
	Region string `json:"region,omitempty"`
	// Rows contains the rows of the data region, header first.
	Rows []Row `json:"rows,omitempty"`
}

