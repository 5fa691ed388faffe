package themepark

import "encoding/json"

// Entity-type tags the live endpoint uses to discriminate items.
const (
	EntityAttraction = "ATTRACTION"
	EntityShow       = "SHOW"
)

// Queue keys carrying wait times on attraction items.
const (
	QueueStandby     = "STANDBY"
	QueueSingleRider = "SINGLE_RIDER"
)

// LiveDocument is the payload of GET /entity/{id}/live: park metadata plus
// one live item per attraction/show.
type LiveDocument struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	EntityType string     `json:"entityType"`
	Timezone   string     `json:"timezone"`
	LiveData   []LiveItem `json:"liveData"`
}

// LiveItem is one entry of the liveData list. Raw carries the item's
// original JSON so snapshots can store exactly what upstream sent.
type LiveItem struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	EntityType     string                `json:"entityType"`
	Status         string                `json:"status"`
	ExternalID     *string               `json:"externalId"`
	LastUpdated    string                `json:"lastUpdated"`
	Queue          map[string]*QueueInfo `json:"queue"`
	OperatingHours []ScheduleEntry       `json:"operatingHours"`
	Showtimes      []ScheduleEntry       `json:"showtimes"`

	Raw json.RawMessage `json:"-"`
}

// QueueInfo is one queue line; WaitTime may be absent for closed rides.
type QueueInfo struct {
	WaitTime *int `json:"waitTime"`
}

// ScheduleEntry is a start/end window (operating hours or a showtime).
type ScheduleEntry struct {
	Type      string `json:"type"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// UnmarshalJSON decodes an item and keeps the original bytes in Raw.
func (it *LiveItem) UnmarshalJSON(data []byte) error {
	type alias LiveItem
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*it = LiveItem(a)
	it.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// StandbyWait extracts queue.STANDBY.waitTime if present.
func (it *LiveItem) StandbyWait() *int {
	return it.queueWait(QueueStandby)
}

// SingleRiderWait extracts queue.SINGLE_RIDER.waitTime if present.
func (it *LiveItem) SingleRiderWait() *int {
	return it.queueWait(QueueSingleRider)
}

func (it *LiveItem) queueWait(key string) *int {
	if it.Queue == nil {
		return nil
	}
	q, ok := it.Queue[key]
	if !ok || q == nil {
		return nil
	}
	return q.WaitTime
}
