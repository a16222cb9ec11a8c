// Package task provides asynchronous task processing.
//
// A Dispatcher runs a fixed pool of workers fed by a buffered in-memory
// queue. Submit schedules a task and returns immediately; the result of
// each accepted task is delivered to its callback exactly once, and
// AwaitAll blocks until every outstanding callback has returned. Tasks
// implement the Task interface; HashTask is the built-in implementation
// that computes SHA-256 digests.
package task
