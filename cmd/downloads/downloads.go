package downloads

import (
	"fmt"
	"sort"

	"canvas-portal/cmd/root"
	"canvas-portal/internal/config"
	"canvas-portal/internal/downloads"
	"canvas-portal/internal/env"
	"canvas-portal/internal/utils"

	"github.com/iancoleman/orderedmap"
	"github.com/spf13/cobra"
)

var (
	optMap     string
	optVersion string
	optDesktop string
)

var downloadsCmd = &cobra.Command{
	Use:   "downloads",
	Short: "Show the download links of a release",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := showDownloads(cmd); err != nil {
			fmt.Println(err)
		}
	},
}

type Link_Columns struct {
	Arch     string `json:"arch"`
	Link     string `json:"link"`
	Checksum string `json:"checksum"`
}

func showDownloads(cmd *cobra.Command) error {
	path := optMap
	if path == "" {
		path = config.App().Downloads.MapPath
	}
	if path == "" {
		path = env.DefaultDownloadMap()
	}
	m, err := downloads.Load(path)
	if err != nil {
		return err
	}
	sel, err := downloads.NewSelector(m, nil)
	if err != nil {
		return err
	}

	args := map[string]string{}
	if cmd.Flags().Changed("release") {
		args["v"] = optVersion
	}
	if cmd.Flags().Changed("desktop") {
		args["d"] = optDesktop
	}
	sel.PreferredRelease(args)
	s := sel.Selection()

	fmt.Printf("Release %s (%s), desktop %s\n", s.Version, s.Stability, s.DesktopLabel)
	checksum := ""
	algos := make([]string, 0, len(s.ShortHashes))
	for algo := range s.ShortHashes {
		algos = append(algos, algo)
	}
	sort.Strings(algos)
	if len(algos) > 0 {
		checksum = algos[0] + ":" + s.ShortHashes[algos[0]]
	}

	var dataList []*orderedmap.OrderedMap
	for _, arch := range s.Archs {
		row := Link_Columns{Arch: arch, Link: s.Links[arch], Checksum: checksum}
		recordMap, _ := utils.StructToOrderedMap(row)
		dataList = append(dataList, recordMap)
	}
	if len(dataList) == 0 {
		fmt.Println("No images for this desktop")
		return nil
	}
	utils.PrintFormat(dataList)
	return nil
}

func init() {
	root.RootCmd.AddCommand(downloadsCmd)

	downloadsCmd.Flags().StringVarP(&optMap, "map", "m", "", "Download map file (YAML or JSON)")
	downloadsCmd.Flags().StringVarP(&optVersion, "release", "r", "", "Release version")
	downloadsCmd.Flags().StringVarP(&optDesktop, "desktop", "d", "", "Desktop key")
	downloadsCmd.Example = `  canvas downloads
  canvas downloads -r 23 -d kde`
}
