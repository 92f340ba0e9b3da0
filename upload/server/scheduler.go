package server

//go:generate mockgen -source=scheduler.go -package=server -destination=scheduler_mock.go

import (
	"github.com/twitter/uploadq/upload/domain"
)

type Scheduler interface {
	AddClient(c *domain.Client) error

	RemoveClient(c *domain.Client) error

	// Replay-latest subscriptions; call the returned func to unsubscribe.
	WaitingClients() (<-chan []domain.ClientSnapshot, func())

	Slots() (<-chan []SlotSnapshot, func())

	History(clientId int64) (ClientHistory, bool)

	Idle() bool

	Dispose()
}
