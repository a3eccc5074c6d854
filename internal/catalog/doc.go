// Package catalog holds the in-memory model of the JPL/CDMS spectroscopy
// catalogs: spectral lines, substance entries, the multi-source store, and
// the persisted JSON codec.
//
// A Store merges any number of catalog files. Entries are append-only;
// species tags are unique within one source file but not across sources, so
// merging never collapses entries by tag. Provenance (source filename and
// build time) is kept per loaded file.
//
// The persisted form is a JSON document, optionally gzip-, bzip2-, or
// xz-compressed and optionally wrapped in a tar archive. Decoding detects
// the container by magic bytes, never by file extension.
package catalog
