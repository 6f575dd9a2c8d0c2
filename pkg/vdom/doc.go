// Package vdom provides the server-side UI tree and its reconciliation.
//
// The server keeps the last tree it sent to each client. When the
// application produces a new tree, Diff compares the two snapshots and
// returns the ordered list of patches the client must apply to catch up.
//
// # Core Types
//
// Item is a closed sum type with one value type per variant: View, Text,
// Button, TextInput and Checkbox. Only View has children. Equal compares
// two trees structurally.
//
// Path addresses a node by the child indices leading to it from the root;
// the empty path is the root itself.
//
// # Patches
//
// Patch is a closed sum type: Replace, AddFront, AddBack, InsertAt,
// RemoveInx and the Navigate control message. Every index inside a batch
// refers to the tree the batch was computed against, not to the tree as it
// looks halfway through applying the batch:
//
//	InsertAt{Path: p, Inx: i}   insert right after the old child i of p
//	RemoveInx{Path: p, Inx: i}  remove the old child i of p
//	Replace{Path: p}            p itself addresses old positions
//
// Apply implements these rules and is what test clients use to mirror the
// browser.
//
// # Diffing
//
//	patches := vdom.Diff(prev, next)
//
// Sibling lists are compared with the edit-script solver in package
// editscript. A child that was "replaced" by the solver is diffed
// recursively, so a change deep inside a subtree produces a small nested
// patch instead of a full subtree replacement.
package vdom
