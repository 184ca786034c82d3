package sqlc

import "time"

const (
	QuerierCtxTimeout = time.Second * 10
)

// DbManager groups the managers built on one querier. A nil Analytics
// means analytics are disabled.
type DbManager struct {
	Analytics *AnalyticsManager
}

func NewDbManager(queries Querier) DbManager {
	if queries == nil {
		return DbManager{}
	}
	return DbManager{
		Analytics: NewAnalyticsManager(queries),
	}
}
