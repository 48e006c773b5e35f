// Package palette extracts representative colours from a grid, either with
// dominantcolor or with k-means clustering of the pixels.
package palette
