package models

import "time"

// Program represents a single scheduled broadcast on a channel.
// Start/Stop are absolute instants (provider local time plus the configured
// hour offset). Lists are not guaranteed sorted or non-overlapping; consumers
// must tolerate arbitrary order.
type Program struct {
	ChannelID   string    `json:"channelId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	Stop        time.Time `json:"stop"`
}
