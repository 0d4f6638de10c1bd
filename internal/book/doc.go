// Package book reads the declarative inputs of a course book: the settings
// document (_config.yml) and the table of contents (_toc.yml).
//
// Both files belong to the external builder. This package only inspects them
// for listings and pre-flight checks; it never rewrites them and never hands
// a parsed form to the builder.
package book
