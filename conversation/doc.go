// Package conversation runs a single-turn exchange with a chat model.
//
// A Runner takes one prompt, sends it as the only human message of one chat
// request and returns the reply text. There is no history, retry or branching.
package conversation
