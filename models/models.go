// Package models contains the value types shared by the federation: actors,
// activities, and the records kept in the audit journal.
package models
