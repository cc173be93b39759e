// Package notify turns job reports into Slack messages and delivers them.
//
// Formatting and routing are pure functions of the job and its report.
// Delivery goes through a Sender so tests never reach the network. A
// failed delivery is logged and never changes the job outcome.
package notify
