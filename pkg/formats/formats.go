// Package formats provides parsers and writers for mesh source files.
package formats
