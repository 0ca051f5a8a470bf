// Package chonk implements the Chonk scripting language: a lexer, a
// recursive descent parser, a chained environment model and a tree-walking
// interpreter.
//
//	source := `echo "hello";`
//	in := chonk.NewInterpreter(chonk.Config{})
//	if err := in.Run(source); err != nil {
//		fmt.Fprintln(os.Stderr, chonk.FormatError(err, source))
//	}
package chonk
