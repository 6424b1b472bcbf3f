// Package fuzztests houses Go fuzz harnesses for the osta lexer. They feed
// arbitrary bytes through source.FileSet and the lexer and check that it
// never panics and that token spans tile the input.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
