// Package options parses the cypherstream command line.
//
// Flags are POSIX style through spf13/pflag:
//
//	-c, --config  cypher chain (mandatory)
//	-i, --input   input file, standard input when omitted
//	-o, --output  output file, standard output when omitted
//	-v, --version print version and exit
//
// Every string flag may be given at most once. Parse failures are returned
// as *errors.AppError values in the options category.
package options
