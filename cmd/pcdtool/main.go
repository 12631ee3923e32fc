// Command pcdtool inspects and converts PCD point cloud files.
//
//	pcdtool info scan.pcd
//	pcdtool stats scan.pcd
//	pcdtool convert scan.pcd out.pcd --data binary_compressed --compression lzf
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
