// Package geo holds the geographic helpers around a search: polygon
// area on the sphere and the catalogue of map layers a renderer can draw
// the search on.
package geo
