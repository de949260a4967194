package service

import (
	"time"

	"github.com/godilite/csat-server/internal/gauge"
)

type DashboardSummary struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Current     bool   `json:"current"`
}

type Status struct {
	Dashboard   string    `json:"dashboard,omitempty"`
	LastUpdated time.Time `json:"lastUpdated"`
	Loading     bool      `json:"loading"`
	Error       string    `json:"error,omitempty"`
}

// GaugeData is one rendered gauge. Known is false when the type key does not
// resolve; Error is set when shaping the gauge failed.
type GaugeData struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	TypeKey       string         `json:"typeKey"`
	Visualization string         `json:"visualization,omitempty"`
	Known         bool           `json:"known"`
	DrillDown     bool           `json:"drillDown"`
	Expanded      bool           `json:"expanded"`
	Position      gauge.Position `json:"position"`
	Kind          string         `json:"kind,omitempty"`
	Result        gauge.Result   `json:"result"`
	Error         string         `json:"error,omitempty"`
}

type SectionData struct {
	Name   string      `json:"name"`
	Gauges []GaugeData `json:"gauges"`
}

type DashboardData struct {
	Dashboard     DashboardSummary  `json:"dashboard"`
	Filters       gauge.FilterState `json:"filters"`
	Sections      []SectionData     `json:"sections"`
	RecordCount   int               `json:"recordCount"`
	FilteredCount int               `json:"filteredCount"`
	Status        Status            `json:"status"`
}

type DrillDownData struct {
	GaugeID string         `json:"gaugeId"`
	Title   string         `json:"title"`
	Columns []string       `json:"columns,omitempty"`
	Rows    []gauge.Record `json:"rows"`
}

type GaugeTypeInfo struct {
	Key               string       `json:"key"`
	DisplayName       string       `json:"displayName"`
	Visualization     string       `json:"visualization"`
	SupportsDrillDown bool         `json:"supportsDrillDown"`
	DefaultParams     gauge.Params `json:"defaultParams,omitempty"`
}

type FilterOptions struct {
	Technicians []string `json:"technicians"`
	Companies   []string `json:"companies"`
	Ratings     []string `json:"ratings"`
}
