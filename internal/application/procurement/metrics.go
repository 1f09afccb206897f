package procurement

import "github.com/wms/backend/internal/domain/procurement"

// WorkflowMetrics records workflow outcomes
type WorkflowMetrics interface {
	PRCreated(priority procurement.Priority)
	PRTransitioned(to procurement.PRStatus)
	GoodsReceived(lines, quantity int, poMediated bool)
}

type noopMetrics struct{}

func (noopMetrics) PRCreated(procurement.Priority)      {}
func (noopMetrics) PRTransitioned(procurement.PRStatus) {}
func (noopMetrics) GoodsReceived(int, int, bool)        {}
