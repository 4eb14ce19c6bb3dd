// Package services implements the driving port interfaces.
// Services contain the client's orchestration logic and delegate every
// data operation to driven ports (adapters).
//
// Services are pure Go with no external dependencies.
package services
