package stage

// commands buffers structural changes requested while a tick is running.
// They are applied together at the end of the tick.
type commands struct {
	completes []*attachment
	cancels   []*attachment
	removes   []ActorId
}

func (c *commands) complete(a *attachment) {
	c.completes = append(c.completes, a)
}

func (c *commands) cancel(a *attachment) {
	c.cancels = append(c.cancels, a)
}

func (c *commands) remove(id ActorId) {
	c.removes = append(c.removes, id)
}

func (c *commands) empty() bool {
	return len(c.completes) == 0 && len(c.cancels) == 0 && len(c.removes) == 0
}

// flush applies all buffered commands to the stage, resetting the buffer state.
// Completions run first so a behavior that finished on the same tick its actor
// was removed is still detached.
func (c *commands) flush(s *Stage) {
	for _, a := range c.completes {
		s.finish(a)
	}

	for _, a := range c.cancels {
		s.drop(a)
	}

	for _, id := range c.removes {
		s.removeNow(id)
	}

	clear(c.completes)
	clear(c.cancels)
	c.completes = c.completes[:0]
	c.cancels = c.cancels[:0]
	c.removes = c.removes[:0]
}
