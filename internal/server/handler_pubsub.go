package server

import (
	"github.com/respkv/respkv/internal/bytestr"
	"github.com/respkv/respkv/internal/resp"
)

// Subscribe handles the SUBSCRIBE command. One confirmation is written per
// channel carrying the connection's running subscription count, and the
// connection enters sub-mode until its last channel is unsubscribed.
// Subscribing to a channel the connection already holds just re-confirms.
// Syntax: SUBSCRIBE <channel> [<channel> ...]
func Subscribe(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	args := cmd[1:]
	if len(args) < 1 {
		return errWrongArgs("subscribe")
	}

	for _, channel := range args {
		if _, ok := c.subs[channel]; !ok {
			c.subs[channel] = s.Store.Subscribe(channel, c.deliverTo())
		}
		c.writeReply(resp.NewArrayValue([]resp.Value{
			*resp.NewBulkValue("subscribe"),
			*resp.NewBulkValue(channel),
			*resp.NewIntegerValue(int64(len(c.subs))),
		}))
	}
	return nil
}

// Unsubscribe handles the UNSUBSCRIBE command. With no arguments it drops
// every subscription the connection holds. Naming a channel the connection
// never subscribed still confirms with the current count.
// Syntax: UNSUBSCRIBE [<channel> ...]
func Unsubscribe(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	channels := cmd[1:]
	if len(channels) == 0 {
		channels = make([]bytestr.ByteStr, 0, len(c.subs))
		for channel := range c.subs {
			channels = append(channels, channel)
		}
	}

	if len(channels) == 0 {
		// nothing subscribed and nothing named, still confirm
		c.writeReply(resp.NewArrayValue([]resp.Value{
			*resp.NewBulkValue("unsubscribe"),
			*resp.NewNullBulkValue(),
			*resp.NewIntegerValue(0),
		}))
		return nil
	}

	for _, channel := range channels {
		if id, ok := c.subs[channel]; ok {
			s.Store.Unsubscribe(id)
			delete(c.subs, channel)
		}
		c.writeReply(resp.NewArrayValue([]resp.Value{
			*resp.NewBulkValue("unsubscribe"),
			*resp.NewBulkValue(channel),
			*resp.NewIntegerValue(int64(len(c.subs))),
		}))
	}
	return nil
}

// Publish handles the PUBLISH command and replies with the number of
// subscribers the message was handed to.
// Syntax: PUBLISH <channel> <message>
func Publish(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	args := cmd[1:]
	if len(args) != 2 {
		return errWrongArgs("publish")
	}
	n := s.Store.Publish(args[0], args[1])
	return resp.NewIntegerValue(n)
}
