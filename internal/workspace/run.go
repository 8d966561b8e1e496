package workspace

import (
	"time"

	"github.com/KaramelBytes/adlens-cli/internal/analysis"
)

// Run holds metadata for one stored analysis. The full output lives next to
// the workspace file under runs/<id>.json.
type Run struct {
	ID         string           `json:"id"`
	AdsSource  string           `json:"ads_source"`
	CRMSource  string           `json:"crm_source"`
	Report     string           `json:"report,omitempty"`
	Language   string           `json:"language"`
	HasRevenue bool             `json:"has_revenue"`
	Warnings   int              `json:"warnings"`
	Summary    analysis.Summary `json:"summary"`
	CreatedAt  time.Time        `json:"created_at"`
}
