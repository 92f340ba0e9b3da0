package generator

//go:generate mockgen -source=sink.go -package=generator -destination=sink_mock.go

import (
	"github.com/twitter/uploadq/upload/domain"
)

// ClientSink accepts generated clients. server.Scheduler satisfies it.
type ClientSink interface {
	AddClient(c *domain.Client) error
}
