package dto

type ReportRequest struct {
	ReportID      string  `json:"report_id"`
	VehicleNumber string  `json:"vehicle_number"`
	Location      string  `json:"location"`
	DamageCost    float64 `json:"damage_cost"`
}

type ReportResponse struct {
	ReportID      string  `json:"report_id"`
	VehicleNumber string  `json:"vehicle_number"`
	Location      string  `json:"location"`
	DamageCost    float64 `json:"damage_cost"`
}

type ListReportsResponse struct {
	Reports []ReportResponse `json:"reports"`
}

type CompareResponse struct {
	First      ReportResponse `json:"first"`
	Second     ReportResponse `json:"second"`
	MoreSevere string         `json:"more_severe"`
}
