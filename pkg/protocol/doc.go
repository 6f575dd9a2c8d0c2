// Package protocol implements the JSON wire protocol between a monolith
// server and its clients.
//
// Every message is one frame: a JSON array. Frames sent by the server carry
// patches, frames sent by the client carry events.
//
// # Outbound frames
//
// Each element is a patch computed by vdom.Diff, in batch order:
//
//	[{"type":"addFront","path":[],"item":{"type":"text","text":"0"}},
//	 {"type":"removeInx","path":[2],"inx":1}]
//
// Patch types are replace, addFront, addBack, insertAt and removeInx. A
// navigate element ({"type":"navigate","url":"/next"}) travels on the same
// channel and asks the client to change its location.
//
// Items are tagged with their type: view (children), text (text), button
// (id, name, title), textInput (id, name, placeholder, value) and checkbox
// (id, name, checked).
//
// # Inbound frames
//
// Each element is a client event: onClick, onTextChanged, onKeyDown or
// parametersChanged. The disconnected event is never accepted from a client.
//
// # Limits
//
// Decoders bound item nesting (MaxItemDepth) and the number of elements per
// frame (MaxFrameElements). Any decoding failure is reported as a
// *DecodeError and invalidates the whole frame.
package protocol
