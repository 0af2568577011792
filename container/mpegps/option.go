/*
NAME
  option.go - explicit optional value, used in place of a sentinel for
  "no pending PTS".

DESCRIPTION
  See DESIGN.md

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mpegps

// Opt is an explicit optional value. StreamBuffer uses Opt[int64] in place
// of a sentinel -1 for "no pending PTS": a stream's start PTS is either set
// or it isn't, and callers can't confuse an unset PTS with a legitimately
// zero one.
type Opt[T any] struct {
	val T
	ok  bool
}

// Some returns a present Opt wrapping v.
func Some[T any](v T) Opt[T] { return Opt[T]{val: v, ok: true} }

// None returns an absent Opt.
func None[T any]() Opt[T] { return Opt[T]{} }

// Get returns the wrapped value and whether it is present.
func (o Opt[T]) Get() (T, bool) { return o.val, o.ok }

// Clear resets o to absent.
func (o *Opt[T]) Clear() { *o = Opt[T]{} }
