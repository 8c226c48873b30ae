package models

type HealthCenter struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Location    string     `json:"location"`
	Phone       string     `json:"phone"`
	Hours       string     `json:"hours"`
	Rating      float64    `json:"rating"`
	Coordinates [2]float64 `json:"coordinates"`
}

type EmergencyContact struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}

type WeekInfo struct {
	Baby   string `json:"baby"`
	Mother string `json:"mother"`
	Tips   string `json:"tips"`
}

type PregnancyWeek struct {
	Week     int      `json:"week"`
	Language Language `json:"language"`
	Info     WeekInfo `json:"info"`
}
