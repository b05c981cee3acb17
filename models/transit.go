package models

import "github.com/Holy-Spoon/Subway-System-Planner/internal/transit"

// Station is a station with its map position and the lines serving it
type Station struct {
	Name  string   `json:"name"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Lines []string `json:"lines"`
}

// LineSummary is a line without its stops and services
type LineSummary struct {
	Name         string  `json:"name"`
	StationCount int     `json:"stationCount"`
	ServiceCount int     `json:"serviceCount"`
	LengthKm     float64 `json:"lengthKm"`
}

// LineStop is one station position on a line
type LineStop struct {
	Position   int     `json:"position"` // 0-based, in direction of travel
	Station    string  `json:"station"`
	DistanceKm float64 `json:"distanceKm"` // from the first station of the line
}

// Service is one scheduled run on a line
type Service struct {
	TrainID   string   `json:"trainId"` // "<line>-<first time>"
	StartTime string   `json:"startTime"`
	Times     []string `json:"times"` // HHMM, one per stop reached
	Stops     int      `json:"stops"`
}

// LineDetail is a line with its stops and full timetable
type LineDetail struct {
	LineSummary
	Stops    []LineStop `json:"stops"`
	Services []Service  `json:"services"`
}

// Connection answers "is there a line from A to B in that direction?"
type Connection struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Found      bool    `json:"found"`
	Line       string  `json:"line,omitempty"`
	DistanceKm float64 `json:"distanceKm,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// NextService is the next departure of one line from a station
type NextService struct {
	Line    string `json:"line"`
	Found   bool   `json:"found"`
	TrainID string `json:"trainId,omitempty"`
	Time    string `json:"time,omitempty"`
	Message string `json:"message,omitempty"`
}

// NextServicesResponse lists the next departure on every line at a station
type NextServicesResponse struct {
	Station  string        `json:"station"`
	After    string        `json:"after"`
	Services []NextService `json:"services"`
}

// Trip is a single-line journey, or the reason none was found
type Trip struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	After      string  `json:"after"`
	Found      bool    `json:"found"`
	Line       string  `json:"line,omitempty"`
	TrainID    string  `json:"trainId,omitempty"`
	Departure  string  `json:"departure,omitempty"`
	Arrival    string  `json:"arrival,omitempty"`
	DistanceKm float64 `json:"distanceKm,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// NewStation converts a transit.Station
func NewStation(s *transit.Station) Station {
	return Station{
		Name:  s.Name(),
		X:     s.X(),
		Y:     s.Y(),
		Lines: s.Lines(),
	}
}

// NewLineSummary converts a transit.SubwayLine without stops and services
func NewLineSummary(l *transit.SubwayLine) LineSummary {
	return LineSummary{
		Name:         l.Name(),
		StationCount: len(l.Stops()),
		ServiceCount: len(l.Services()),
		LengthKm:     l.Length(),
	}
}

// NewLineDetail converts a transit.SubwayLine with stops and services
func NewLineDetail(l *transit.SubwayLine) LineDetail {
	detail := LineDetail{
		LineSummary: NewLineSummary(l),
		Stops:       make([]LineStop, 0, len(l.Stops())),
		Services:    make([]Service, 0, len(l.Services())),
	}
	for i, st := range l.Stops() {
		detail.Stops = append(detail.Stops, LineStop{Position: i, Station: st.Station, DistanceKm: st.Distance})
	}
	for _, svc := range l.Services() {
		detail.Services = append(detail.Services, NewService(svc))
	}
	return detail
}

// NewService converts a transit.LineService
func NewService(svc *transit.LineService) Service {
	times := svc.Times()
	out := Service{
		TrainID:   svc.TrainID(),
		StartTime: svc.StartTime().String(),
		Times:     make([]string, len(times)),
		Stops:     svc.Stops(),
	}
	for i, t := range times {
		out.Times[i] = t.String()
	}
	return out
}
