// Package textutil turns recording ids and system names into safe file name
// tokens.
package textutil
