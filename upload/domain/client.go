// Package domain provides definitions for upload Clients and the priority
// order the upload server serves them in.
package domain

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidClient is returned when a Client cannot be built from the given files.
var ErrInvalidClient = errors.New("invalid client")

// Client is a job waiting to upload an ordered list of files.
// Files are consumed front to back and never re-sorted after creation.
// Fields are mutated only by the upload server while it holds its lock.
type Client struct {
	Id int64

	// Set on first enqueue, the zero value means unset.
	ArrivalTime time.Time

	// Remaining file sizes in ticks, all positive.
	Files []int

	// Last computed priority, for observability only.
	PriorityScore float64
}

// NewClient validates files and returns a Client owning a copy of them.
func NewClient(id int64, files ...int) (*Client, error) {
	c := &Client{Id: id, Files: append([]int(nil), files...)}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that c has at least one file and every file size is positive.
func (c *Client) Validate() error {
	if len(c.Files) == 0 {
		return errors.Wrapf(ErrInvalidClient, "client %d has no files", c.Id)
	}
	for i, f := range c.Files {
		if f <= 0 {
			return errors.Wrapf(ErrInvalidClient, "client %d file %d has non-positive size %d", c.Id, i, f)
		}
	}
	return nil
}

// TimeWaiting is now - ArrivalTime, or zero if the client was never enqueued.
func (c *Client) TimeWaiting(now time.Time) time.Duration {
	if c.ArrivalTime.IsZero() {
		return 0
	}
	return now.Sub(c.ArrivalTime)
}

// Stamp sets ArrivalTime if it is unset.
func (c *Client) Stamp(now time.Time) {
	if c.ArrivalTime.IsZero() {
		c.ArrivalTime = now
	}
}

func (c *Client) NumFiles() int {
	return len(c.Files)
}

// FirstFile returns the size of the next file to upload.
func (c *Client) FirstFile() (int, bool) {
	if len(c.Files) == 0 {
		return 0, false
	}
	return c.Files[0], true
}

// PopFile removes and returns the next file to upload.
func (c *Client) PopFile() (int, bool) {
	size, ok := c.FirstFile()
	if !ok {
		return 0, false
	}
	c.Files = c.Files[1:]
	return size, true
}

func (c *Client) String() string {
	return fmt.Sprintf("{id:%d, arrival:%s, files:%v, score:%.3f}",
		c.Id, c.ArrivalTime.Format(time.RFC3339Nano), c.Files, c.PriorityScore)
}

// ClientSnapshot is an immutable copy of a Client published to subscribers.
type ClientSnapshot struct {
	Id            int64
	ArrivalTime   time.Time
	Waiting       time.Duration
	Files         []int
	PriorityScore float64
}

func (c *Client) Snapshot(now time.Time) ClientSnapshot {
	return ClientSnapshot{
		Id:            c.Id,
		ArrivalTime:   c.ArrivalTime,
		Waiting:       c.TimeWaiting(now),
		Files:         append([]int(nil), c.Files...),
		PriorityScore: c.PriorityScore,
	}
}
