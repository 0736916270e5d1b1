package pubsub

import "context"

// Pack is a message travelling through a topic. Key decides the partition, so
// messages with the same key keep their order.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(context.Context, string, *Pack) error
}
