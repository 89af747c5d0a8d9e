// Package calendar assigns side-by-side columns to overlapping calendar items.
//
// Layout sorts items by start time (longer items first on ties), places each one in the
// first free column among the items it overlaps, and gives every member of a
// transitively overlapping cluster the same column count. Touching items do not overlap.
package calendar
