// Package testdata holds small charts in each supported format.
package testdata

// Official is a version 3 chart at 120 bpm: one line centred on the
// stage, speed 1 until 2000ms and 2 after.
const Official = `{
  "formatVersion": 3,
  "offset": 0,
  "judgeLineList": [
    {
      "bpm": 120,
      "notesAbove": [
        {"type": 1, "time": 64, "positionX": 0, "holdTime": 0, "speed": 1, "floorPosition": 1},
        {"type": 2, "time": 64, "positionX": 2, "holdTime": 0, "speed": 1, "floorPosition": 1},
        {"type": 3, "time": 128, "positionX": 0, "holdTime": 64, "speed": 2, "floorPosition": 2},
        {"type": 4, "time": 192, "positionX": -2, "holdTime": 0, "speed": 1, "floorPosition": 4}
      ],
      "notesBelow": [
        {"type": 1, "time": 256, "positionX": 1, "holdTime": 0, "speed": 1, "floorPosition": 6},
        {"type": 9, "time": 300, "positionX": 1, "holdTime": 0, "speed": 1, "floorPosition": 6}
      ],
      "speedEvents": [
        {"startTime": -999999, "endTime": 128, "value": 1},
        {"startTime": 128, "endTime": 1000000000, "value": 2}
      ],
      "judgeLineMoveEvents": [
        {"startTime": -999999, "endTime": 1000000000, "start": 0.5, "end": 0.5, "start2": 0.5, "end2": 0.5}
      ],
      "judgeLineRotateEvents": [
        {"startTime": -999999, "endTime": 0, "start": 0, "end": 0},
        {"startTime": 0, "endTime": 64, "start": 0, "end": 90},
        {"startTime": 64, "endTime": 1000000000, "start": 90, "end": 90}
      ],
      "judgeLineDisappearEvents": [
        {"startTime": -999999, "endTime": 1000000000, "start": 1, "end": 1}
      ]
    }
  ]
}`

// Rpe has two tempo segments (120 bpm for four beats, then 60) and two
// lines, the second with a bpm factor of 2.
const Rpe = `{
  "META": {"offset": 0, "RPEVersion": 150, "name": "fixture"},
  "BPMList": [
    {"bpm": 120, "startTime": [0, 0, 1]},
    {"bpm": 60, "startTime": [4, 0, 1]}
  ],
  "judgeLineList": [
    {
      "Name": "main",
      "bpmfactor": 1.0,
      "eventLayers": [
        {
          "speedEvents": [{"startTime": [0, 0, 1], "endTime": [4, 0, 1], "start": 45, "end": 45}],
          "moveXEvents": [{"startTime": [0, 0, 1], "endTime": [2, 0, 1], "start": 0, "end": 675, "easingType": 5}],
          "moveYEvents": [],
          "rotateEvents": [{"startTime": [0, 0, 1], "endTime": [1, 0, 1], "start": 0, "end": 90, "easingType": 1}],
          "alphaEvents": [{"startTime": [0, 0, 1], "endTime": [0, 0, 1], "start": 255, "end": 255}]
        },
        null,
        {
          "moveYEvents": [{"startTime": [0, 0, 1], "endTime": [1, 0, 1], "start": 450, "end": 450}]
        }
      ],
      "notes": [
        {"type": 1, "startTime": [1, 0, 1], "endTime": [1, 0, 1], "positionX": 0, "above": 1, "isFake": 0, "speed": 1, "size": 1},
        {"type": 3, "startTime": [1, 0, 1], "endTime": [1, 0, 1], "positionX": 0, "above": 1, "isFake": 1, "speed": 1, "size": 1},
        {"type": 4, "startTime": [2, 1, 2], "endTime": [2, 1, 2], "positionX": 675, "above": 1, "isFake": 0},
        {"type": 2, "startTime": [5, 0, 1], "endTime": [6, 0, 1], "positionX": -675, "above": 2, "isFake": 0, "speed": 1.5, "size": 2}
      ]
    },
    {
      "Name": "slow",
      "bpmfactor": 2.0,
      "eventLayers": [],
      "notes": [
        {"type": 1, "startTime": [1, 0, 1], "endTime": [1, 0, 1], "positionX": 0, "above": 1, "isFake": 0}
      ]
    }
  ]
}`

// Pec is a 120 bpm chart with three bad records: a negative line, an
// unknown command and a short ramp.
const Pec = `175
bp 0.00 120.00
cv 0 0.00 7.00
cp 0 0.00 1024 700
ca 0 0.00 255
cd 0 0.00 0
cm 0 1.00 2.00 2048 700 1
n1 0 2.00 1024 1 0
# 1.00
& 1.00
n2 0 3.00 4.00 0 1 0 # 2.00 & 1.50
n3 0 3.00 512 2 0
n4 1 4.00 0 1 1
n1 -1 5.00 0 1 0
zz 0 1
cm 0 1.00
`
