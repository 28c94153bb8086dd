// Package sps reads and writes Sensor Planning Service 2.0 request and
// response documents.
package sps
