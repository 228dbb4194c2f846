package notes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/crucial707/notes-api/cmd/cli/config"
	"github.com/crucial707/notes-api/cmd/cli/output"
	"github.com/spf13/cobra"
)

type note struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ==========================
// Init Notes
// ==========================
func InitNotes(rootCmd *cobra.Command) {

	notesCmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage notes",
	}

	notesCmd.AddCommand(
		listNotesCmd(),
		createNoteCmd(),
		getNoteCmd(),
		updateNoteCmd(),
		deleteNoteCmd(),
	)

	rootCmd.AddCommand(notesCmd)
}

// ==========================
// LIST
// ==========================
func listNotesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, most recently updated first",
		Run: func(cmd *cobra.Command, args []string) {

			resp, err := doRequest("GET", "/notes", nil)
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			if asJSON {
				printJSON(resp)
				return
			}

			var notes []note
			if err := json.NewDecoder(resp.Body).Decode(&notes); err != nil {
				fmt.Println("failed to decode response:", err)
				return
			}

			rows := make([][]interface{}, 0, len(notes))
			for _, n := range notes {
				rows = append(rows, []interface{}{n.ID, n.Title, n.UpdatedAt.Format(time.RFC3339)})
			}
			output.RenderTable([]string{"ID", "Title", "Updated"}, rows)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON instead of a table")

	return cmd
}

// ==========================
// CREATE
// ==========================
func createNoteCmd() *cobra.Command {

	var title string
	var content string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Run: func(cmd *cobra.Command, args []string) {

			payload := map[string]string{
				"title":   title,
				"content": content,
			}
			body, _ := json.Marshal(payload)

			resp, err := doRequest("POST", "/notes", body)
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			printJSON(resp)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "note title")
	cmd.Flags().StringVar(&content, "content", "", "note content")

	return cmd
}

// ==========================
// GET
// ==========================
func getNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show one note",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {

			resp, err := doRequest("GET", "/notes/"+args[0], nil)
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			printJSON(resp)
		},
	}
}

// ==========================
// UPDATE (only flags that were set are sent)
// ==========================
func updateNoteCmd() *cobra.Command {

	var title string
	var content string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update a note's title and/or content",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {

			payload := map[string]string{}
			if cmd.Flags().Changed("title") {
				payload["title"] = title
			}
			if cmd.Flags().Changed("content") {
				payload["content"] = content
			}
			body, _ := json.Marshal(payload)

			resp, err := doRequest("PUT", "/notes/"+args[0], body)
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			printJSON(resp)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new note title")
	cmd.Flags().StringVar(&content, "content", "", "new note content")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {

			resp, err := doRequest("DELETE", "/notes/"+args[0], nil)
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusOK {
				fmt.Println("Note deleted")
			} else {
				fmt.Println("Failed to delete note")
			}
		},
	}
}

// doRequest sends an authenticated request to the API.
func doRequest(method, path string, body []byte) (*http.Response, error) {
	token, err := config.ReadToken()
	if err != nil {
		return nil, fmt.Errorf("please login first")
	}

	var reader *bytes.Buffer
	if body != nil {
		reader = bytes.NewBuffer(body)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, config.APIURL()+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return http.DefaultClient.Do(req)
}

// printJSON pretty-prints the response body.
func printJSON(resp *http.Response) {
	var out any
	json.NewDecoder(resp.Body).Decode(&out)
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
