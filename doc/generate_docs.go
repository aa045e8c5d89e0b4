// Command doc generates documentation for the components and their options.
package main

import (
	"cmp"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"io"
	"log/slog"
	"maps"
	"reflect"
	"runtime"
	"slices"
	"strings"
	"text/template"

	"github.com/mook/pagewire/components"
	"github.com/mook/pagewire/config"
	_ "github.com/mook/pagewire/load"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/packages"
)

var (
	//go:embed doc.md.gotmpl
	docTemplate string
)

type configItem struct {
	Type        string
	Description string
}
type component struct {
	Name        string                // The registered name of the component
	Package     string                // The package implementing the component
	Singleton   bool                  // Whether only one instance is allowed per page
	Description string                // The component documentation
	Config      map[string]configItem // Options for this component
}

func generateDocs(ctx context.Context, writer io.Writer) error {
	tmpl, err := template.New("").Funcs(templateFunctions).Parse(docTemplate)
	if err != nil {
		return err
	}

	registered, err := registeredComponents(ctx)
	if err != nil {
		return err
	}
	pkgs, err := loadPackages(registered)
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}
	slog.DebugContext(ctx, "loaded packages", "packages", pkgs)

	var result []*component
	for _, pkg := range pkgs {
		c := registered[pkg.PkgPath]
		if c == nil {
			continue
		}
		if err := parseComponent(ctx, pkg, c); err != nil {
			return fmt.Errorf("failed to parse %s: %w", pkg.PkgPath, err)
		}
		result = append(result, c)
	}
	slices.SortFunc(result, func(a, b *component) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return tmpl.Execute(writer, result)
}

// Create one instance of every registered component with default options,
// keyed by the package path of its factory.
func registeredComponents(ctx context.Context) (map[string]*component, error) {
	app := components.New(config.Default())
	noOptions := func(any) error { return nil }
	result := make(map[string]*component)
	for name, factory := range components.Enumerate() {
		instance, err := factory(ctx, app, noOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to create component %s: %w", name, err)
		}
		funcName := runtime.FuncForPC(reflect.ValueOf(factory).Pointer()).Name()
		pkgPath := packagePath(funcName)
		result[pkgPath] = &component{
			Name:      name,
			Package:   pkgPath,
			Singleton: instance.IsSingleton(),
		}
	}
	return result, nil
}

// Given a fully qualified function name, return its package path.
func packagePath(funcName string) string {
	slash := max(strings.LastIndex(funcName, "/"), 0)
	if dot := strings.Index(funcName[slash:], "."); dot >= 0 {
		return funcName[:slash+dot]
	}
	return funcName
}

func loadPackages(registered map[string]*component) ([]*packages.Package, error) {
	pkgPaths := slices.Sorted(maps.Keys(registered))
	loadConfig := &packages.Config{Mode: packages.NeedName | packages.NeedSyntax | packages.NeedDeps | packages.NeedTypes}
	return packages.Load(loadConfig, pkgPaths...)
}

// Parse a component package, filling in its description and options.
func parseComponent(ctx context.Context, pkg *packages.Package, result *component) error {
	if len(pkg.Errors) > 0 {
		var errs []error
		for _, err := range pkg.Errors {
			errs = append(errs, err)
		}
		return fmt.Errorf("package load failure: %w", errors.Join(errs...))
	}
	if pkg.Types == nil {
		return fmt.Errorf("failed to load package types")
	}

	for _, file := range pkg.Syntax {
		if file.Doc != nil {
			result.Description += file.Doc.Text() + "\n"
		}
	}

	configType := pkg.Types.Scope().Lookup("Configuration")
	if configType == nil {
		slog.DebugContext(ctx, "package has no Configuration", "package", pkg.PkgPath)
		return nil
	}
	items, err := genConfigDocs(configType, pkg)
	if err != nil {
		return fmt.Errorf("failed to parse options for %s: %w", result.Name, err)
	}
	result.Config = items
	return nil
}

// Given the type object for the declaration of the config object, emit its
// documentation.
func genConfigDocs(object types.Object, pkg *packages.Package) (map[string]configItem, error) {
	structType, err := findStruct(object, pkg)
	if err != nil {
		return nil, err
	}
	return parseConfigProperties(structType, nil, pkg)
}

// Find the struct type declared for the given object.
func findStruct(object types.Object, pkg *packages.Package) (*ast.StructType, error) {
	pos := object.Pos()
	for _, file := range pkg.Syntax {
		if !(file.FileStart <= pos && pos < file.FileEnd) {
			continue // Not in this file
		}
		path, _ := astutil.PathEnclosingInterval(file, pos, pos)
		typeSpec := getNodeOfType[*ast.TypeSpec](path)
		if typeSpec == nil {
			return nil, fmt.Errorf("failed to find TypeSpec for %s", object.Id())
		}
		structType, ok := typeSpec.Type.(*ast.StructType)
		if !ok {
			return nil, fmt.Errorf("failed to convert TypeSpec for %s to StructType", object.Id())
		}
		return structType, nil
	}
	return nil, fmt.Errorf("failed to find file for %+v", object)
}

func getNodeOfType[T ast.Node](path []ast.Node) T {
	for _, node := range path {
		if t, ok := node.(T); ok {
			return t
		}
	}
	return *new(T) // Returns nil
}

// Given an expression, remove all layers of parentheses.
func unParen(expr ast.Expr) ast.Expr {
	for {
		e, ok := expr.(*ast.ParenExpr)
		if !ok {
			return expr
		}
		expr = e.X
	}
}

// Given a StructType of configuration, return the configuration items for
// templating.  The prefix is pre-pended to the field names, for use with nested
// structures.
func parseConfigProperties(structType *ast.StructType, prefix []string, pkg *packages.Package) (map[string]configItem, error) {
	result := make(map[string]configItem)
	for _, field := range structType.Fields.List {
		fieldName := ""
		if ident, ok := unParen(field.Type).(*ast.Ident); ok {
			fieldName = strings.ToLower(ident.Name)
		}
		for _, name := range field.Names {
			if name != nil {
				fieldName = strings.ToLower(name.Name)
				break
			}
		}
		if field.Tag != nil && field.Tag.Kind == token.STRING {
			tag := reflect.StructTag(strings.Trim(field.Tag.Value, "`"))
			if t := tag.Get("yaml"); t != "" {
				if name, _, _ := strings.Cut(t, ","); name != "" {
					fieldName = name
				}
			}
		}
		fullName := append(slices.Clone(prefix), fieldName)
		comment := "(no documentation)"
		if field.Comment != nil {
			comment = strings.TrimSpace(field.Comment.Text())
		}
		if field.Doc != nil {
			comment = strings.TrimSpace(field.Doc.Text())
		}
		result[strings.Join(fullName, ".")] = configItem{
			Type:        types.ExprString(unParen(field.Type)),
			Description: comment,
		}

		nestedStruct, _ := unParen(field.Type).(*ast.StructType)
		if ident, ok := unParen(field.Type).(*ast.Ident); ok {
			// Nested options declared as their own type in the same package.
			if object := pkg.Types.Scope().Lookup(ident.Name); object != nil {
				if _, isStruct := object.Type().Underlying().(*types.Struct); isStruct {
					found, err := findStruct(object, pkg)
					if err != nil {
						return nil, err
					}
					nestedStruct = found
				}
			}
		}
		if nestedStruct != nil {
			childItems, err := parseConfigProperties(nestedStruct, fullName, pkg)
			if err != nil {
				return nil, err
			}
			maps.Copy(result, childItems)
		}
	}
	return result, nil
}
