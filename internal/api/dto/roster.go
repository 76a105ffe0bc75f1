package dto

type StudentResponse struct {
	StudentID       string   `json:"student_id"`
	HomeLat         float64  `json:"home_lat"`
	HomeLng         float64  `json:"home_lng"`
	UniversityID    string   `json:"university_id"`
	Days            []string `json:"days"`
	TimeWindowStart string   `json:"time_window_start"`
	TimeWindowEnd   string   `json:"time_window_end"`
}

type ListStudentsResponse struct {
	Students []StudentResponse `json:"students"`
}

type BusResponse struct {
	BusID    string  `json:"bus_id"`
	Capacity int     `json:"capacity"`
	StartLat float64 `json:"start_lat"`
	StartLng float64 `json:"start_lng"`
}

type ListBusesResponse struct {
	Buses []BusResponse `json:"buses"`
}

type UniversityResponse struct {
	UniversityID string  `json:"university_id"`
	Name         string  `json:"name"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
}

type ListUniversitiesResponse struct {
	Universities []UniversityResponse `json:"universities"`
}
