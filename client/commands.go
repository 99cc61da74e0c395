package client

import (
	"fmt"
	"strconv"

	"github.com/respkv/respkv/internal/resp"
)

// replyErr converts an error reply into a Go error.
func replyErr(v *resp.Value) error {
	if v.Typ == resp.ERROR {
		return fmt.Errorf("server: %s", v.Err)
	}
	return nil
}

// Ping checks the connection; with a message the server echoes it.
func (c *Client) Ping(message ...string) (string, error) {
	args := append([]string{"PING"}, message...)
	v, err := c.Do(args...)
	if err != nil {
		return "", err
	}
	if err := replyErr(v); err != nil {
		return "", err
	}
	return v.Str, nil
}

// Hello switches the connection to the given protocol version.
func (c *Client) Hello(version int) (*resp.Value, error) {
	v, err := c.Do("HELLO", strconv.Itoa(version))
	if err != nil {
		return nil, err
	}
	return v, replyErr(v)
}

// Set stores a string value under key.
func (c *Client) Set(key, value string) error {
	v, err := c.Do("SET", key, value)
	if err != nil {
		return err
	}
	return replyErr(v)
}

// Get fetches the string value under key. The boolean is false when the
// key is absent.
func (c *Client) Get(key string) (string, bool, error) {
	v, err := c.Do("GET", key)
	if err != nil {
		return "", false, err
	}
	if err := replyErr(v); err != nil {
		return "", false, err
	}
	if v.IsNull() {
		return "", false, nil
	}
	return string(v.Blk), true, nil
}

// Del removes the given keys and reports how many existed.
func (c *Client) Del(keys ...string) (int64, error) {
	args := append([]string{"DEL"}, keys...)
	v, err := c.Do(args...)
	if err != nil {
		return 0, err
	}
	if err := replyErr(v); err != nil {
		return 0, err
	}
	return v.Num, nil
}

// HSet sets one field of the hash at key. Returns 1 when the field was
// created, 0 when it was updated.
func (c *Client) HSet(key, field, value string) (int64, error) {
	v, err := c.Do("HSET", key, field, value)
	if err != nil {
		return 0, err
	}
	if err := replyErr(v); err != nil {
		return 0, err
	}
	return v.Num, nil
}

// HGet fetches one field of the hash at key.
func (c *Client) HGet(key, field string) (string, bool, error) {
	v, err := c.Do("HGET", key, field)
	if err != nil {
		return "", false, err
	}
	if err := replyErr(v); err != nil {
		return "", false, err
	}
	if v.IsNull() {
		return "", false, nil
	}
	return string(v.Blk), true, nil
}

// Publish sends a message to a channel and reports how many subscribers
// received it.
func (c *Client) Publish(channel, message string) (int64, error) {
	v, err := c.Do("PUBLISH", channel, message)
	if err != nil {
		return 0, err
	}
	if err := replyErr(v); err != nil {
		return 0, err
	}
	return v.Num, nil
}

// Subscribe enters sub-mode on the given channels, consuming one
// confirmation per channel. After it returns, Read delivers pushed
// messages; use Message to decode them.
func (c *Client) Subscribe(channels ...string) error {
	args := append([]string{"SUBSCRIBE"}, channels...)
	v, err := c.Do(args...)
	if err != nil {
		return err
	}
	if err := replyErr(v); err != nil {
		return err
	}
	for i := 1; i < len(channels); i++ {
		if _, err := c.Read(); err != nil {
			return err
		}
	}
	return nil
}

// Message decodes a pushed ["message", channel, payload] array.
func Message(v *resp.Value) (channel, payload string, ok bool) {
	if v.Typ != resp.ARRAY || len(v.Arr) != 3 {
		return "", "", false
	}
	if string(v.Arr[0].Blk) != "message" {
		return "", "", false
	}
	return string(v.Arr[1].Blk), string(v.Arr[2].Blk), true
}
