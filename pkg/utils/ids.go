package utils

import (
	"fmt"
	"sync/atomic"
	"time"
)

var idSeq uint64

// GenMessageID generates a unique message ID from the current UTC nanosecond
// timestamp and an atomic sequence number, formatted "msg-<ts>-<seq>". The
// sequence breaks ties when two IDs land on the same nanosecond.
func GenMessageID() string {
	n := time.Now().UTC().UnixNano()
	s := atomic.AddUint64(&idSeq, 1)
	return fmt.Sprintf("msg-%d-%d", n, s)
}

// GenThreadID generates a unique thread ID, formatted "thread-<ts>-<seq>".
func GenThreadID() string {
	n := time.Now().UTC().UnixNano()
	s := atomic.AddUint64(&idSeq, 1)
	return fmt.Sprintf("thread-%d-%d", n, s)
}
