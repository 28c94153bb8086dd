// Package sos reads and writes Sensor Observation Service 2.0 request and
// response documents.
package sos
