// Package server runs monolith sessions: one actor per connected client
// holding the last UI tree sent to it, plus a Dispatcher that multiplexes
// every session's events into a single stream.
//
// # Architecture
//
// Each session owns two goroutines:
//
//   - The reader decodes inbound frames and pushes their events into the
//     Dispatcher's shared channel, in transport order.
//   - The actor drains the session mailbox. Render commands are diffed
//     against the last tree and written as one frame each, in call order.
//
// Application code pulls events with Dispatcher.Next and reacts through
// the returned Writer:
//
//	d := server.NewDispatcher(nil)
//	srv := server.New(nil, d)
//	go srv.Run(ctx)
//
//	for {
//	    w, ev, err := d.Next(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    switch ev := ev.(type) {
//	    case protocol.OnClick:
//	        state.Toggle(ev.ID)
//	    case protocol.Disconnected:
//	        state.Forget(w.ID())
//	        continue
//	    }
//	    w.Render(view(state))
//	}
//
// # Failure model
//
// A transport failure is terminal for that session only and is reported
// once as protocol.Disconnected. Malformed inbound frames are logged and
// dropped; the session stays connected. Session mailboxes are bounded by
// SessionConfig.MaxPendingCommands and a session that overflows is
// disconnected.
package server
