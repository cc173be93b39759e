// Package testutil provides scriptable fakes for the collaborators of the
// update workflow.
//
// Key components:
//   - FakeGateway: in-memory environment gateway that records every call
//   - FakeInventory: fixed site inventory
//   - FakeConfirmer: scripted yes/no answers
//   - FakeSender: captures notification payloads
//   - FakeRunner: scripted terminus process runner
//
// Fakes hold no global state; build a new one per test.
package testutil
