package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/amonks/quadrant/todo"
	"github.com/spf13/cobra"
)

// todo attach
var todoAttachCmd = &cobra.Command{
	Use:   "attach <id> <file>",
	Short: "Attach a file reference to a todo",
	Long: `Attach a file reference to a todo.

The file is not copied; the todo records its absolute path. Images
(jpg, jpeg, png, gif, webp) and documents (pdf, txt, doc, docx, xls,
xlsx, ppt, pptx) up to 10MB are accepted.`,
	Args: cobra.ExactArgs(2),
	RunE: runTodoAttach,
}

// todo comment
var todoCommentCmd = &cobra.Command{
	Use:   "comment <id> <text>...",
	Short: "Add a comment to a todo",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runTodoComment,
}

func init() {
	todoCmd.AddCommand(todoAttachCmd, todoCommentCmd)
}

func runTodoAttach(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[1])
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("attach %s: %w", args[1], err)
	}
	if info.IsDir() {
		return fmt.Errorf("attach %s: is a directory", args[1])
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.Todos.Resolve(args[0])
	if err != nil {
		return err
	}
	attachment, err := a.Todos.AddAttachment(cmd.Context(), id, todo.AttachmentDraft{
		Name: filepath.Base(path),
		URI:  "file://" + filepath.ToSlash(path),
		Size: info.Size(),
	})
	if err != nil {
		return err
	}

	highlight := todoHighlighter(a)
	fmt.Printf("Attached %s to %s\n", attachment.Name, highlight(id))
	return nil
}

func runTodoComment(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.Todos.Resolve(args[0])
	if err != nil {
		return err
	}
	authorID, err := currentIdentityID(a)
	if err != nil {
		return err
	}
	if _, err := a.Todos.AddComment(cmd.Context(), id, strings.Join(args[1:], " "), authorID); err != nil {
		return err
	}

	highlight := todoHighlighter(a)
	fmt.Printf("Commented on %s\n", highlight(id))
	return nil
}
