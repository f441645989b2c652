package items

import "time"

type ItemCreated struct {
	ItemID ItemID
	Owner  OwnerID
	At     time.Time
}

func (e ItemCreated) EventName() string     { return "item.created" }
func (e ItemCreated) AggregateID() string   { return string(e.ItemID) }
func (e ItemCreated) OccurredAt() time.Time { return e.At }

type ItemPublished struct {
	ItemID ItemID
	At     time.Time
}

func (e ItemPublished) EventName() string     { return "item.published" }
func (e ItemPublished) AggregateID() string   { return string(e.ItemID) }
func (e ItemPublished) OccurredAt() time.Time { return e.At }
