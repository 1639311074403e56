package cmd

import (
	"flag"
)

type Flags struct {
	Platform    string
	ContentID   string
	UserID      string
	PostText    string
	Niche       string
	StyleTone   string
	BrandTone   string
	CommentType string
	NbComments  int
	DryRun      bool
	Version     bool
}

func ParseFlags() (Flags, string) {
	flags := Flags{}

	flag.StringVar(&flags.Platform, "p", "", "Platform to comment on: twitter, reddit, linkedin, threads, instagram")
	flag.StringVar(&flags.Platform, "platform", "", "Platform to comment on: twitter, reddit, linkedin, threads, instagram")
	flag.StringVar(&flags.ContentID, "c", "", "Content id the batch runs for")
	flag.StringVar(&flags.ContentID, "content", "", "Content id the batch runs for")
	flag.StringVar(&flags.UserID, "user", "", "Owner user id recorded in the comment log")
	flag.StringVar(&flags.PostText, "text", "", "Text of your own post, used to derive search keywords")
	flag.StringVar(&flags.Niche, "niche", "", "Business niche, used for keyword extraction and prompts")
	flag.StringVar(&flags.StyleTone, "style", "", "Writing style for generated comments")
	flag.StringVar(&flags.BrandTone, "brand", "", "Brand tone for generated comments")
	flag.StringVar(&flags.CommentType, "type", "after", "Batch type: before or after your own post is published")
	flag.IntVar(&flags.NbComments, "n", 0, "Number of comments to post (0 uses the configured default)")
	flag.BoolVar(&flags.DryRun, "dry-run", false, "Search and generate but never like or post")
	flag.BoolVar(&flags.Version, "v", false, "Display version information")
	flag.BoolVar(&flags.Version, "version", false, "Display version information")

	flag.Parse()

	args := flag.Args()
	var subcommand string
	if len(args) > 0 {
		subcommand = args[0]
	}

	return flags, subcommand
}
