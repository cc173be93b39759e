// Package terminus implements the environment gateway and the site inventory
// on top of the platform's terminus command-line tool.
//
// Every call is one terminus process. Structured answers are requested with
// --format=json. A non-zero exit of a remote wp or drush command is a result,
// not an error; a non-zero exit of any other terminus command is an error
// coded GATEWAY_COMMAND.
package terminus
