// Package vtest provides testing helpers for monolith sessions.
//
// Pipe returns two connected in-memory transports. Hand one end to a
// server.Dispatcher and drive the other with a MirrorClient, which applies
// every patch frame it receives to its own copy of the tree:
//
//	serverEnd, clientEnd := vtest.Pipe()
//	w, _ := d.Accept(serverEnd)
//	client := vtest.NewMirrorClient(clientEnd)
//
//	client.Send(protocol.OnClick{ID: "add", Name: "add"})
//	w, ev, _ := d.Next(ctx)
//	w.Render(view)
//
//	client.Next(ctx)
//	vtest.ExpectTree(t, client, view)
//
// Messages on a Pipe are delivered in order, and messages written before
// Close are still read before io.EOF, so a test observes frames and events
// in the exact order they were sent.
package vtest
