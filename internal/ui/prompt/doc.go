// Package prompt provides interactive terminal prompts.
//
//   - [Select]: pick one entry from a filterable list
package prompt
