// Command catsearch searches the JPL and CDMS molecular spectroscopy
// catalogs: it downloads the upstream line lists into a local catalog file
// and filters that catalog by frequency, intensity, and substance.
package main
