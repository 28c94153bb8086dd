// Package xsd converts primitive values to and from their XML Schema lexical forms.
//
// The grammar is fixed and independent of the host locale: a dot is the only
// decimal separator, datetimes are written in UTC with millisecond precision and
// list values are separated by single spaces.
package xsd
