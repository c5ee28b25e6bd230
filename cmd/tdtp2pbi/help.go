package main

import "fmt"

const version = "1.0.0"

// PrintVersion prints version information
func PrintVersion() {
	fmt.Printf("tdtp2pbi version %s\n", version)
	fmt.Println("Power BI push-dataset exporter")
	fmt.Println("https://github.com/ruslano69/tdtp-powerbi")
}

// PrintHelp prints comprehensive help information
func PrintHelp() {
	fmt.Println("tdtp2pbi - export tabular data to a Power BI push dataset")
	fmt.Printf("Version: %s\n\n", version)

	fmt.Println("USAGE:")
	fmt.Println("  tdtp2pbi [options]")
	fmt.Println()

	fmt.Println("OPTIONS:")
	fmt.Println("    --config <file>            Path to yaml config (default: tdtp2pbi.yaml)")
	fmt.Println("    --dataset <name>           Override target dataset name")
	fmt.Println("    --workspace <name>         Override target workspace name")
	fmt.Println("    --table <name>             Override source table or sheet name")
	fmt.Println("    --overwrite                Recreate the dataset from the source schema")
	fmt.Println("    --truncate                 Clear rows when reusing an existing dataset")
	fmt.Println("    --buffer <n>               Override row buffer size")
	fmt.Println()

	fmt.Println("  Config Creation:")
	fmt.Println("    --create-config <type>     Write a starter config (sqlite, postgres, mysql, mssql, xlsx, csv)")
	fmt.Println()

	fmt.Println("EXAMPLES:")
	fmt.Println("  tdtp2pbi --create-config sqlite")
	fmt.Println("  tdtp2pbi --config export.yaml --overwrite")
	fmt.Println("  tdtp2pbi --config export.yaml --dataset Sales --buffer 500")
	fmt.Println()

	fmt.Println("CREDENTIALS:")
	fmt.Println("  Credential fields in the config support ${ENV_VAR} expansion.")
	fmt.Println("  A .env file in the working directory is loaded automatically.")
}
