package service

import (
	"time"

	"github.com/go-arcade/bookbuild/pkg/cache"
)

// Services groups every bookbuilding service over one Deps
type Services struct {
	Deal       *DealService
	Band       *BandService
	Invitation *InvitationService
	IOI        *IOIService
	Demand     *DemandService
	Range      *RangeService
	Note       *NoteService
	Report     *ReportService
	Sweeper    *Sweeper
}

// NewServices wires the services. c may be nil to disable summary caching.
func NewServices(deps *Deps, c cache.ICache, cacheTTL time.Duration) *Services {
	demand := NewDemandService(deps, c, cacheTTL)
	return &Services{
		Deal:       NewDealService(deps),
		Band:       NewBandService(deps),
		Invitation: NewInvitationService(deps),
		IOI:        NewIOIService(deps),
		Demand:     demand,
		Range:      NewRangeService(deps),
		Note:       NewNoteService(deps),
		Report:     NewReportService(deps, demand),
		Sweeper:    NewSweeper(deps),
	}
}
