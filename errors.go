package corosync

import "errors"

// ErrSendClosed is returned by TrySend and Send when no live receivers
// remain on the channel.
var ErrSendClosed = errors.New("corosync: send on channel closed to receivers")

// ErrReceiveEmpty is returned by TryReceive when the channel's buffer is
// empty but at least one sender is still alive.
var ErrReceiveEmpty = errors.New("corosync: receive on empty channel")

// ErrReceiveClosed is returned by TryReceive, and signaled by Receive's
// ReceiveResult, when no senders remain and the buffer is empty.
var ErrReceiveClosed = errors.New("corosync: receive on channel closed to senders")
