/*
musicxmllint parses one or more MusicXML files and reports whether
each is a complete instance of schematab.Default: every required
attribute set, every content model satisfied all the way down.

Usage:

	musicxmllint file.xml ...

For each file, musicxmllint parses with validation enabled (so
attribute and child-placement errors are caught as the document is
read) and then runs a final content-model check over the whole tree.
Any *mxerr error is printed with the file name and, where available,
line and column, and musicxmllint exits with a non-zero status. A
file that parses and final-checks cleanly produces no output.
*/
package main
