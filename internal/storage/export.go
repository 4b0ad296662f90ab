package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/tomas-hradek/ecolab/internal/ecosystem"
	"github.com/tomas-hradek/ecolab/internal/report"
)

// ExportData is the full-run JSON export document.
type ExportData struct {
	ID                    string                        `json:"id"`
	Timestamp             time.Time                     `json:"timestamp"`
	Integer               bool                          `json:"integer"`
	Objective             float64                       `json:"objective"`
	Nodes                 int                           `json:"nodes"`
	Market                map[string]float64            `json:"market"`
	Supply                map[string]float64            `json:"supply"`
	Demand                map[string]map[string]float64 `json:"demand"`
	Captures              map[string]float64            `json:"captures"`
	MarketPenetration     float64                       `json:"market_penetration"`
	PenetrationByConsumer map[string]float64            `json:"penetration_by_consumer"`
	SupplyUtilization     float64                       `json:"supply_utilization"`
	UtilizationBySupply   map[string]float64            `json:"utilization_by_supply"`
	UtilizationByConsumer map[string]float64            `json:"utilization_by_consumer"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, def *ecosystem.Definition, rep *report.Report) error {
	data := ExportData{
		ID:                    meta.ID,
		Timestamp:             meta.Timestamp,
		Integer:               meta.Integer,
		Objective:             meta.Objective,
		Nodes:                 meta.Nodes,
		Market:                def.Market,
		Supply:                def.Supply,
		Demand:                def.Demand,
		Captures:              rep.MarketCaptures,
		MarketPenetration:     rep.MarketPenetration,
		PenetrationByConsumer: rep.PenetrationByConsumer,
		SupplyUtilization:     rep.SupplyUtilization,
		UtilizationBySupply:   rep.UtilizationBySupply,
		UtilizationByConsumer: rep.UtilizationByConsumer,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func ExportCSV(w io.Writer, captures []Capture) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"consumer", "cap", "captured", "penetration"}); err != nil {
		return err
	}
	for _, c := range captures {
		row := []string{
			c.Consumer,
			strconv.FormatFloat(c.Cap, 'f', 6, 64),
			strconv.FormatFloat(c.Captured, 'f', 6, 64),
			strconv.FormatFloat(c.Penetration, 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
