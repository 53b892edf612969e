// Package scaffold materializes the embedded template tree of a flavor into a
// project root. Files ending in .tmpl are rendered with text/template; the
// rest are copied byte for byte. Template-internal names such as "gitignore"
// are renamed afterwards because dotfiles cannot live in the embedded tree.
package scaffold
