// Package cmd contains the imagerefresh command-line interface.
package cmd
