// Package meas models industrial process measurements and tasking data as SWE
// Common items and converts them to and from OGC XML element trees.
//
// The Item variants, data quality tags, observations, temporal filters, task
// status reports and the extensible request/response mixins live here. The
// sos and sps sub-packages compose them into complete protocol messages.
package meas
