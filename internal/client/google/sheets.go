package google

import (
	"context"
	"fmt"
	"gsuitetool/internal/apierrors"

	"google.golang.org/api/sheets/v4"
)

func (c *Client) UpdateRange(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error {
	vr := &sheets.ValueRange{Values: values}
	_, err := c.Service.Spreadsheets.Values.Update(spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return apierrors.FromAPI(fmt.Sprintf("unable to update range %s", writeRange), err)
	}
	return nil
}

func (c *Client) BatchUpdate(ctx context.Context, spreadsheetID string, data map[string][][]interface{}) error {
	requests := []*sheets.ValueRange{}
	for r, values := range data {
		requests = append(requests, &sheets.ValueRange{
			Range:  r,
			Values: values,
		})
	}
	_, err := c.Service.Spreadsheets.Values.BatchUpdate(spreadsheetID, &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             requests,
	}).Context(ctx).Do()
	if err != nil {
		return apierrors.FromAPI("batch update failed", err)
	}
	return nil
}

func (c *Client) ReadRange(ctx context.Context, spreadsheetID, r string) ([][]interface{}, error) {
	resp, err := c.Service.Spreadsheets.Values.Get(spreadsheetID, r).Context(ctx).Do()
	if err != nil {
		return nil, apierrors.FromAPI(fmt.Sprintf("unable to read range %s", r), err)
	}
	return resp.Values, nil
}

// AppendRows adds values after the last row of the table found in r.
func (c *Client) AppendRows(ctx context.Context, spreadsheetID, r string, values [][]interface{}) error {
	vr := &sheets.ValueRange{Values: values}
	_, err := c.Service.Spreadsheets.Values.Append(spreadsheetID, r, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return apierrors.FromAPI(fmt.Sprintf("unable to append to range %s", r), err)
	}
	return nil
}
