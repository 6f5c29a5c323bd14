package dto

type StationPortResponse struct {
	PowerKw      float64 `json:"power_kw"`
	Availability string  `json:"availability"`
}

type StationResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Operator     string                `json:"operator,omitempty"`
	PowerKw      float64               `json:"power_kw"`
	PowerText    string                `json:"power_text,omitempty"`
	Availability string                `json:"availability"`
	Coord        *CoordinateResponse   `json:"coord,omitempty"`
	Ports        []StationPortResponse `json:"ports,omitempty"`
}

type ListStationResponse struct {
	Stations []StationResponse `json:"stations"`
}

type TemplateResponse struct {
	ID         string               `json:"id"`
	Label      string               `json:"label"`
	StartLabel string               `json:"start_label"`
	EndLabel   string               `json:"end_label"`
	Polyline   []CoordinateResponse `json:"polyline"`
}

type ListTemplateResponse struct {
	Templates []TemplateResponse `json:"templates"`
}
